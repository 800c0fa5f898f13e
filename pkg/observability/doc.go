/*
Package observability turns engine lifecycle hooks into Prometheus metrics.

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	engine, _ := recolor.New(scene, recolor.WithLifecycleHooks(metrics.Hooks()))
	http.Handle("/metrics", metrics.Handler())
*/
package observability
