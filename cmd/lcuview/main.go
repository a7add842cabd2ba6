// Command lcuview builds LCU block-encoding circuits from operator files and
// prints, checks or displays them.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
