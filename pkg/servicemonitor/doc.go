// Package servicemonitor converts kube-prometheus-stack custom resources
// into a Prometheus compose service with a generated scrape configuration.
//
// The Prometheus resource supplies image, version and retention; each
// ServiceMonitor supplies scrape targets. Resolution of a monitor runs in
// this order:
//
//  1. Selector: the first registered Service (by name) whose spec.selector
//     contains every matchLabels pair. Without a match, the monitor name and
//     then each label value are tried as compose service names.
//  2. Exclusion: targets matching a configured glob are dropped silently.
//  3. Port: numeric ports are used as-is; named and omitted ports are looked
//     up in the matched Service. A named targetPort cannot be resolved.
//  4. TLS: for https endpoints, a known CA configmap becomes ca_file plus a
//     read-only bind mount, and serverName becomes server_name.
//
// Every failure above skips the monitor or endpoint and records a warning
// on the run context; only writing prometheus.yml can fail the run.
//
// The generated files are:
//
//	configmaps/prometheus-scrape-config/prometheus.yml
//
// and the compose service mounts it at /etc/prometheus/prometheus.yml.
package servicemonitor
