// Package service hosts the administrative HTTP surface over the upgrade
// request ledger. It exposes read, status amendment, and delete endpoints
// next to health and Prometheus metrics.
package service
