// Package shared holds code used across packages that belongs to no single
// layer. Its testutil subpackage provides the dataset fixtures and the
// in-memory slog capture the package tests share.
package shared
