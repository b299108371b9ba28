//go:build linux && (386 || arm || mips || mipsle)

package sysmem

func ramField(v uint32) uint32 { return v }
