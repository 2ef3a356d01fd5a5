// Package bot turns inbound chat events into music lookups. It classifies
// each event, runs a text search or a file recognition, formats the result
// and replies through the chat transport. Every downloaded file lives in a
// scratch path keyed by its file id and is removed before the handler
// returns.
package bot
