// Package web serves the resistance optimizer form.
//
// Each browser is identified by a client cookie. A page load builds a fresh
// controller for that client, initializes it against the client's stored
// state, and renders it; the page script then reports field edits, list
// edits, tab switches, and submits back to the live controller.
package web
