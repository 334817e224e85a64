// Package promadapters provides a Prometheus implementation of the metrics port shared by
// soft.Session and dbsource.Source.
//
// Instruments are created and registered on first use. The label names of an instrument are the
// sorted label keys of its first observation; later observations report a missing label as the empty string.
//
//	collector := promadapters.NewMetricsCollector(prometheus.DefaultRegisterer)
//	softly, err := assertdb.NewSoftAssertions(soft.WithMetrics(collector))
package promadapters
