// Package changelog keeps the release notes file in step with ChangeSets.
//
// The file is ordinary markdown. Versions are level-2 headings, optionally
// dated, each holding level-3 category lists:
//
//	# Release Notes
//
//	## v1.4.0 (2024-06-01)
//
//	### Added
//	- Dark mode
//
//	### Removed
//	- Legacy sync
//
// A Merger folds a ChangeSet into the block for a label, adding only bullets
// the block lacks, and places new blocks under the first configured anchor
// title. Read turns a document back into VersionBlocks for the changelog
// command, and Check lints one before it is published.
package changelog
