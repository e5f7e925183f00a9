// package mpv drives an external mpv process over its JSON IPC socket.
//
// [Runtime] starts the process and reports when the socket accepts connections. [Widget] holds one IPC
// connection, translates player commands into mpv commands and mpv events into playback events.
//
// Replies are matched to requests by request_id; everything without a request_id is an event.
package mpv
