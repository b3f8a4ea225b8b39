// Package report renders a fetched profile.
//
// Four outputs are produced per target: colored console sections, a JSON
// snapshot of the raw user record, the downloaded profile picture and a
// self-contained HTML report. The console renderer only writes to its
// io.Writer; the file renderers write through a storage.Manager.
package report
