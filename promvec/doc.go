// Package promvec exports safevec state to Prometheus.
//
// [Collector] reads an array's [safevec.Stats] on every scrape; the
// stats surface is backed by atomics, so scraping is safe while scopes
// and drains are running:
//
//	jobs := safevec.New[Job]()
//	prometheus.MustRegister(promvec.NewCollector("jobs", jobs))
//
// [ScopeMetrics] feeds scope snapshots into gauges through the
// [safevec.WithOnMetrics] hook:
//
//	sm := promvec.NewScopeMetrics(prometheus.DefaultRegisterer, "resize")
//	err := safevec.Run(ctx, jobs, assignments,
//		safevec.WithOnMetrics(time.Second, sm.Observe))
package promvec
