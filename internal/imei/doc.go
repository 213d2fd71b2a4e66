// Package imei validates International Mobile Equipment Identity numbers.
//
// An IMEI is 15 decimal digits: a 14-digit body followed by a Luhn check
// digit. Validation is a pure predicate over arbitrary strings; malformed
// input is reported as false, never as an error.
package imei
