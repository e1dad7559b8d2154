package util

import (
	"log"
	"time"
)

// Trace 计时：defer util.Trace("gen mesh")() 在函数退出时打印耗时
func Trace(name string) func() {
	start := time.Now()
	return func() {
		log.Printf("%s took %s", name, time.Since(start))
	}
}
