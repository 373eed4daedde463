// Package dataprocessing turns a raw DoseCheck results table into the
// aggregates the dashboard draws.
//
// # Data Flow
//
//	raw table → Clean → Group → FrequencyCount / QuarterlyResample / SiteDistribution
//
// Clean drops records without a filename, parses the check-date column and
// makes the record ID the table key. Group folds substance columns into one
// boolean column per drug category and removes the substance columns. Each
// step returns a new table and leaves its input untouched, so the whole
// pipeline can be re-run from the same snapshot.
//
// # Drug Grouping
//
// The default grouping is built in (see DefaultGrouping) and can be replaced
// by a YAML file:
//
//	categories:
//	  - name: Fentanyl-like
//	    substances: [Fentanyl, Acetyl fentanyl]
//	  - name: Xylazine-like
//	    substances: [Xylazine]
//
// A grouping is validated twice: for shape when it is loaded, and against the
// cleaned table's columns before any output is produced.
//
// # Error Handling
//
// Schema and configuration problems wrap ErrConfiguration; bad input rows
// wrap ErrDataIntegrity. Both are *errors.AppError values and map to RFC 7807
// problem responses at the HTTP boundary.
package dataprocessing
