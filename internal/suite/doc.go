// Package suite reads YAML check suites and runs them through a soft assertion session,
// so that one run reports every failed check.
//
// A suite names tables and requests to load and the checks to apply to them:
//
//	name: library
//	tables:
//	  - name: books
//	    primary_key: [id]
//	    number_of_rows: 2
//	    rows:
//	      - index: 0
//	        values: [1, Learning Domain-Driven Design, Vlad Khononov, 2021, 0, "2025-03-01T09:30:00Z"]
//	    column_checks:
//	      - name: title
//	        type: TEXT
//	        no_nulls: true
//	requests:
//	  - sql: SELECT id FROM books WHERE lent = ?
//	    args: [1]
//	    number_of_rows: 1
package suite
