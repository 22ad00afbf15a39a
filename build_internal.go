//go:build hwcinternal

package hwcfilter

// internalBuild enables diagnostics by default.
const internalBuild = true
