// Package convert hosts the conversion run: the shared run context, the
// provider contract and the dispatcher that feeds manifests to providers.
//
// A run has three steps:
//
//  1. Index registers every Service in the service registry and writes
//     every ConfigMap under <output>/configmaps/<name>/<key>.
//  2. The Dispatcher groups manifests by kind and calls each provider once
//     per declared kind, in provider priority order.
//  3. The merged compose services, warnings and generated files are
//     returned as an Output.
//
// Providers register a factory from init():
//
//	func init() {
//	    convert.MustRegister("servicemonitor", func() convert.Provider {
//	        return New()
//	    })
//	}
//
// The Context is single-writer. Providers run sequentially and may mutate
// the alias table, service registry and configmap sets.
package convert
