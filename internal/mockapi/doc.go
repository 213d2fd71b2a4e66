// Package mockapi is an in-memory stand-in for the cluster API used during
// development and in end-to-end tests of the warehouse client.
//
// HTTP API
//
//	POST /clusters/?nome=..&descricao=..
//	    Body is a JSON array of IMEIs. Every IMEI must pass the Luhn check,
//	    otherwise the request fails with 422 and a JSON message.
//
//	GET /clusters/{id}/qrcode
//	    PNG label encoding {public url}/clusters/{id}.
//
//	POST /processar-csv
//	    Multipart upload: a "file" part (CSV, or ZIP of CSVs) and a "metadata"
//	    JSON part. Creates a cluster when criar_cluster_automatico is set.
//
//	GET /api/clusters/{id}
//	    Cluster with its per-IMEI details.
//
//	GET /health, GET /metrics
//
// All state is held in memory and lost on process exit. Cluster IDs are
// sequential integers starting at 1.
package mockapi
