// Package history persists one record per conversion run in a SQLite
// database under the log directory. The store is best-effort from the
// pipeline's point of view: conversion proceeds even when recording is
// unavailable.
package history
