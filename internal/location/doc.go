// Package location derives a project identity from a working directory.
//
// Projects live under a common root directory whose final segment is known
// (by default "Projects"). A working directory such as
//
//	/home/me/Projects/acme/services/api
//
// resolves to project "acme" with folder "services/api". Matching is purely
// syntactic: the filesystem is never touched and the project need not exist
// in the store. Backslashes are treated as forward slashes so Windows paths
// resolve the same way.
//
// Every store query made by a vault operation is scoped to the resolved
// project, so a user can only act on the secrets of the project they are
// standing in.
package location
