// Package attrs holds the JSON-object view of records used by the stores:
// attribute maps, record identifiers, deep copies and the minimal-diff
// algorithm that turns an edited form into a PATCH payload.
//
// Nested collections follow the Rails nested-attributes convention. A key
// such as "photos_attributes" holding an array is compared with the
// "photos" association of the original record: new entries are sent as they
// are, removed entries are sent back with a "_destroy" marker carrying their
// id.
//
//	origin := attrs.Attributes{"id": 5, "a": 1, "b": 2}
//	form := attrs.Attributes{"id": 5, "a": 1, "b": 3}
//	attrs.Patch(origin, form) // {"id": 5, "b": 3}
//
// Every function here is pure and never fails.
package attrs
