// Package logging はログ出力先を設定します。
package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup は標準ロガーの出力先を設定します。path が空の場合は標準エラー出力、
// それ以外はローテーションされるファイルに書き込みます。
// 戻り値の io.Closer はプロセス終了時に閉じてください。
func Setup(path string) io.Closer {
	log.SetFlags(log.LstdFlags | log.LUTC)
	if path == "" {
		log.SetOutput(os.Stderr)
		return io.NopCloser(nil)
	}

	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, w))
	return w
}

// New returns a prefixed logger writing to the standard logger's output.
func New(prefix string) *log.Logger {
	return log.New(log.Writer(), "["+prefix+"] ", log.Flags())
}
