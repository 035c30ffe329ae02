// Package lineserver serves the DistKV line protocol over stream sockets.
//
// A Server owns one accept loop per listener and one goroutine per accepted
// connection. Each connection runs the cycle
//
//	read line -> decode -> execute -> write response
//
// until the peer closes, an I/O error occurs, or the client sends EXIT.
// Malformed input never ends a connection; it produces an ERR line and the
// loop continues. A line longer than Config.MaxLineBytes is the one protocol
// violation that does close the connection.
//
// Live connections are tracked in a cmap registry so that Shutdown can close
// them and wait for their handlers to return.
package lineserver
