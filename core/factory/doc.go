// Package factory provides a small generic registry used to instantiate modules
// from configuration. A module is described by a type string and a map of raw
// settings; factories decode the settings into typed structs with Decode.
//
//	reg := factory.NewRegistry[metrics.MetricsSink]()
//	reg.Register("mqtt", func(conf map[string]any) (metrics.MetricsSink, error) {
//	    var c struct{ Broker string `json:"broker"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return newPublisher(c.Broker)
//	})
package factory
