//go:build rp2040 && !ticktock

package main

const tickTock = false
