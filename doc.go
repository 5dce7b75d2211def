// Package main provides the entry point for the settingsd service.
// settingsd is a typed, owner-scoped key/value settings store with
// read-through caching, change history and JSON import/export. It exposes
// a REST API using the Fiber framework and a CLI for export, import,
// seeding and cache maintenance. Persistence is handled by gorm.
package main
