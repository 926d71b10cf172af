package api

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"ministore/core/bootstrap"
)

type storeMetricsCollector struct {
	svc *bootstrap.Services

	accountsDesc   *prometheus.Desc
	productsDesc   *prometheus.Desc
	stockDesc      *prometheus.Desc
	outOfStockDesc *prometheus.Desc
	activityDesc   *prometheus.Desc
	queryErrorDesc *prometheus.Desc
}

func newStoreMetricsCollector(svc *bootstrap.Services) prometheus.Collector {
	return &storeMetricsCollector{
		svc: svc,
		accountsDesc: prometheus.NewDesc(
			"ministore_accounts",
			"Number of accounts by status.",
			[]string{"status"},
			nil,
		),
		productsDesc: prometheus.NewDesc(
			"ministore_products",
			"Number of catalog products by category.",
			[]string{"category"},
			nil,
		),
		stockDesc: prometheus.NewDesc(
			"ministore_stock_units",
			"Units in stock across the catalog.",
			nil,
			nil,
		),
		outOfStockDesc: prometheus.NewDesc(
			"ministore_products_out_of_stock",
			"Number of products with no stock left.",
			nil,
			nil,
		),
		activityDesc: prometheus.NewDesc(
			"ministore_activity_entries",
			"Number of activity log entries.",
			nil,
			nil,
		),
		queryErrorDesc: prometheus.NewDesc(
			"ministore_store_metrics_query_error",
			"Whether reading the store for metrics failed (1) or succeeded (0).",
			nil,
			nil,
		),
	}
}

func (c *storeMetricsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.accountsDesc
	ch <- c.productsDesc
	ch <- c.stockDesc
	ch <- c.outOfStockDesc
	ch <- c.activityDesc
	ch <- c.queryErrorDesc
}

func (c *storeMetricsCollector) Collect(ch chan<- prometheus.Metric) {
	if c == nil || c.svc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	failed := 0.0

	if all, err := c.svc.Directory.List(ctx); err == nil {
		byStatus := map[string]int{}
		for _, a := range all {
			byStatus[string(a.Status)]++
		}
		for status, n := range byStatus {
			ch <- prometheus.MustNewConstMetric(c.accountsDesc, prometheus.GaugeValue, float64(n), status)
		}
	} else {
		failed = 1
	}

	if items, err := c.svc.Catalog.List(ctx); err == nil {
		byCategory := map[string]int{}
		stock, empty := 0, 0
		for _, p := range items {
			byCategory[string(p.Category)]++
			stock += p.Stock
			if p.Stock <= 0 {
				empty++
			}
		}
		for category, n := range byCategory {
			ch <- prometheus.MustNewConstMetric(c.productsDesc, prometheus.GaugeValue, float64(n), category)
		}
		ch <- prometheus.MustNewConstMetric(c.stockDesc, prometheus.GaugeValue, float64(stock))
		ch <- prometheus.MustNewConstMetric(c.outOfStockDesc, prometheus.GaugeValue, float64(empty))
	} else {
		failed = 1
	}

	if entries, err := c.svc.Activity.List(ctx); err == nil {
		ch <- prometheus.MustNewConstMetric(c.activityDesc, prometheus.GaugeValue, float64(len(entries)))
	} else {
		failed = 1
	}

	ch <- prometheus.MustNewConstMetric(c.queryErrorDesc, prometheus.GaugeValue, failed)
}
