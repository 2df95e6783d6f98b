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
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/maxsupermanhd/lac"
)

func configPath() string {
	path := os.Getenv("REGIONTILES_CONFIG")
	if path == "" {
		path = "config.json"
	}
	return path
}

// loadConfig reads .env and then the JSON config. A missing config file
// yields an empty config so every value falls back to its default.
func loadConfig() (*lac.Conf, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	path := configPath()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return lac.NewConf(), nil
	}
	return lac.FromFileJSON(path)
}
