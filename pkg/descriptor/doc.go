// Package descriptor parses repo descriptors: small .lib/.ref text files
// dropped anywhere in a tree, each naming one repository and the revision
// to check out next to it.
package descriptor
