// Package bridge connects a session model to an out-of-process frontend,
// typically a QtQuick application, over a pair of streams.
//
// The frontend observes the model through notifications and edits it by
// sending requests. Every edit goes through a commands.Service, so changes
// made from the frontend can be undone like any other.
//
// Framing
//
// Each message is a JSON object, prefixed by its length in bytes and a space,
// and followed by a newline:
//
//  27 {"command":"UNDO","id":12}
//
// Backend messages
//
//  VERSION        {"version"}
//  MODEL_RESET    {"model": <model document>}
//  DATA_CHANGED   {"identifier", "path", "role", "variant"}
//  ITEM_INSERTED  {"parentPath", "tag", "row", "item": <item document>}
//  ITEM_REMOVED   {"parentPath", "tag", "row"}
//  STACK_CHANGED  {"index", "count", "canUndo", "canRedo", "undoText", "redoText"}
//  ERROR          {"id", "request", "error"}
//
// Paths use the "tag:row/tag:row" form of model.Path; the root item has the
// empty path. Model and item documents use the serialization package format.
//
// Frontend messages
//
//  SET_DATA    {"identifier" | "path", "role", "variant"}
//  INSERT_NEW  {"parent" | "parentPath", "modelType", "tag", "row"}
//  REMOVE      {"parent" | "parentPath", "tag", "row"}
//  MOVE        {"identifier" | "path", "parent" | "parentPath", "tag", "row"}
//  UNDO, REDO  {}
//  QUERY       {}
//
// Items are addressed by identifier or by path. An absent parent means the
// root item, an absent row means append. Every request may carry an "id",
// which is echoed in the ERROR reply if the request fails. A failed edit
// leaves the connection usable; a malformed frame or an unknown command
// closes it.
//
// Concurrency
//
// Frames are read on an internal goroutine, but the model is only touched
// from Process, on the caller's goroutine. Applications that edit the model
// themselves call Process from the same goroutine, typically when
// ProcessSignal fires.
package bridge
