//go:build linux && (amd64 || arm64 || ppc64 || ppc64le || riscv64 || s390x || mips64 || mips64le || loong64)

package sysmem

func ramField(v uint32) uint64 { return uint64(v) }
