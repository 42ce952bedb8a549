// Package daterange classifies Motion tasks into calendar ranges such as
// today or next week.
//
// A task is placed by its chunks when it has any, otherwise by its
// scheduled start, otherwise by its due date. Chunks win even when a
// softer field would match: a task whose only chunk is outside the range
// does not match, whatever its due date says.
package daterange
