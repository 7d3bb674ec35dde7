//go:build !cgo || !opencv

package backend

func linked() Native { return Unavailable{} }
