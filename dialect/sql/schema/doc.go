// Package schema reads table catalogs from live databases and turns them
// into load.Table values.
package schema
