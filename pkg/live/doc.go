// Package live streams DOM patches to browsers over WebSocket.
//
// A Hub is registered as a patch sink on a head.Client that reconciles a
// server-side document. Every applied flush is broadcast as one JSON message;
// ClientScript applies the messages to the browser's document.
package live
