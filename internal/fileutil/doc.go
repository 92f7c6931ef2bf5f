// Package fileutil provides the file handling shared by the fixer: a work
// file that replaces its target atomically on commit, a plain copy used for
// backups, and an advisory lock that keeps two runs off the same file.
package fileutil
