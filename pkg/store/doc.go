/*
Package store loads and persists the documents that plans are applied to.

	            +-----------+
	            |  Router   |
	            +-----+-----+
	                  |
	   +--------------+--------------+
	   |              |              |
	+--+---+     +----+----+    +----+----+
	| File |     | GitHub  |    |   AFS   |
	| (os) |     | (r/o)   |    | (urls)  |
	+------+     +---------+    +---------+

The engine never touches a store directly. A run loads its document once, applies the
plan in memory and saves at most once, so each Store only needs Load and Save.

Errors are classified with ErrNotFound, ErrLoad and ErrWrite; callers use errors.Is.
*/
package store
