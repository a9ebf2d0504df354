// Package display renders chat output to the terminal.
//
// A Printer writes headers, banners, one-line notices, debug dumps and
// glamour-rendered markdown to an io.Writer. The terminal width is read
// on every call so output reflows after a resize. Spinner shows progress
// on stderr while a request is in flight.
package display
