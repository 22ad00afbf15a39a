//go:build !hwcinternal

package hwcfilter

const internalBuild = false
