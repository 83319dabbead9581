// Package ingest orchestrates the intake of a lead file batch: classifying
// the uploaded files by name, parsing counts and metadata out of them,
// pushing the raw files to blob storage, and persisting the resulting lead
// record. Progress is reported to Redis per upload session so the dashboard
// can poll while a large batch is in flight.
package ingest
