package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/tbochard/freightyard/core/metrics"
)

// PromSink records order traffic and stock levels in Prometheus metrics.
type PromSink struct {
	orders   *prometheus.CounterVec
	quantity *prometheus.CounterVec
	resource *prometheus.GaugeVec
	inbound  *prometheus.GaugeVec
	product  *prometheus.GaugeVec
	reserved *prometheus.GaugeVec
	idle     *prometheus.GaugeVec
}

// NewPromSink registers the metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "freightyard_orders_total",
		Help: "Total number of order lifecycle events",
	}, []string{"depot", "event", "ware"})
	quantity := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "freightyard_order_units_total",
		Help: "Total units moved through order lifecycle events",
	}, []string{"depot", "event", "ware"})
	resource := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "freightyard_resource_stock_units",
		Help: "Resource units on hand at a consumer depot",
	}, []string{"depot", "ware"})
	inbound := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "freightyard_resource_inbound_units",
		Help: "Resource units ordered but not yet delivered",
	}, []string{"depot", "ware"})
	product := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "freightyard_product_stock_units",
		Help: "Product units on hand at a producer depot",
	}, []string{"depot", "ware"})
	reserved := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "freightyard_product_reserved_units",
		Help: "Product units promised to outstanding orders",
	}, []string{"depot", "ware"})
	idle := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "freightyard_idle_workers",
		Help: "Idle workers per pool",
	}, []string{"pool"})

	if err := reg.Register(orders); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			orders = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(quantity); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			quantity = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	for _, g := range []**prometheus.GaugeVec{&resource, &inbound, &product, &reserved, &idle} {
		if err := reg.Register(*g); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				*g = are.ExistingCollector.(*prometheus.GaugeVec)
			} else {
				return nil, err
			}
		}
	}

	return &PromSink{
		orders:   orders,
		quantity: quantity,
		resource: resource,
		inbound:  inbound,
		product:  product,
		reserved: reserved,
		idle:     idle,
	}, nil
}

// RecordOrderEvent increments the order counters.
func (s *PromSink) RecordOrderEvent(ev coremetrics.OrderEvent) error {
	s.orders.WithLabelValues(ev.Depot, string(ev.Kind), ev.Ware).Inc()
	s.quantity.WithLabelValues(ev.Depot, string(ev.Kind), ev.Ware).Add(float64(ev.Quantity))
	return nil
}

// RecordResourceLevel sets the consumer-side stock gauges.
func (s *PromSink) RecordResourceLevel(ev coremetrics.ResourceLevelEvent) error {
	s.resource.WithLabelValues(ev.Depot, ev.Ware).Set(float64(ev.Stock))
	s.inbound.WithLabelValues(ev.Depot, ev.Ware).Set(float64(ev.Inbound))
	return nil
}

// RecordProductLevel sets the producer-side stock gauges.
func (s *PromSink) RecordProductLevel(ev coremetrics.ProductLevelEvent) error {
	s.product.WithLabelValues(ev.Depot, ev.Ware).Set(float64(ev.Stock))
	s.reserved.WithLabelValues(ev.Depot, ev.Ware).Set(float64(ev.Reserved))
	return nil
}

// RecordIdleWorkers sets the pool utilization gauge.
func (s *PromSink) RecordIdleWorkers(ev coremetrics.IdleWorkersEvent) error {
	s.idle.WithLabelValues(ev.Pool).Set(float64(ev.Idle))
	return nil
}
