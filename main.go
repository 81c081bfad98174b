// Package main はアプリケーションのエントリーポイントを提供します。
package main

import "github.com/stsysd/plantcare/cli"

func main() {
	cli.Execute()
}
