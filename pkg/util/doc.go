// Package util provides shared helpers for safe file-path validation and
// log-body truncation.
//
//   - SafeFilePath / SafeFilePathAllowAbsolute reject path-traversal attempts
//   - TruncateBody caps request/response bodies for safe logging
package util
