// Package mocks holds gomock doubles for the view-layer ports.
//
// To regenerate after an interface change:
//
//	go generate ./internal/mocks
package mocks

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=prefs_store_mock.go github.com/jrsteele09/go-tms-client/views PrefsStore
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=registrar_mock.go github.com/jrsteele09/go-tms-client/views Registrar
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=dashboard_api_mock.go github.com/jrsteele09/go-tms-client/views DashboardAPI
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=orgs_api_mock.go github.com/jrsteele09/go-tms-client/views OrgsAPI
