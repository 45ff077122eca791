// Package testsupport holds fixtures shared by package tests: temp-dir
// backed configurations, stub tool scripts and sized media files.
package testsupport
