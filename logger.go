/*
	RegionTiles, top-down tile renderer for block game regions
	Copyright (C) 2022 Maxim Zhuchkov

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU Affero General Public License as published
	by the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU Affero General Public License for more details.

	You should have received a copy of the GNU Affero General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.

	Contact me via mail: q3.max.2011@yandex.ru or Discord: MaX#6717
*/

package main

import (
	"io"
	"log/slog"

	"github.com/maxsupermanhd/lac"
	"github.com/natefinch/lumberjack"
)

func createLogger(cfg *lac.Conf) *lumberjack.Logger {
	path := cfg.GetDSString("./logs/RegionTiles.log", "logs_path")
	if path == "" {
		return nil
	}
	return &lumberjack.Logger{
		Filename: path,
		MaxSize:  10,
		Compress: true,
	}
}

// setupLogging sends slog output, and through slog.SetDefault the log
// package too, to the rotated log file and console. Empty logs_path
// disables the file.
func setupLogging(cfg *lac.Conf, debug bool, console io.Writer) (*slog.Logger, io.Closer) {
	var w io.Writer = console
	var closer io.Closer = nopCloser{}
	if lj := createLogger(cfg); lj != nil {
		w = io.MultiWriter(lj, console)
		closer = lj
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(l)
	return l, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
