package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fulldump/goconfig"

	"github.com/fulldump/vismadk/bootstrap"
	"github.com/fulldump/vismadk/configuration"
)

var banner = `
 _   _ _                     ____  _  __
| | | (_)___ _ __ ___   __ _|  _ \| |/ /
| | | | / __| '_ ' _ \ / _' | | | | ' /
| |_| | \__ \ | | | | | (_| | |_| | . \
 \___/|_|___/_| |_| |_|\__,_|____/|_|\_\
                 version ` + bootstrap.VERSION + `
`

func main() {

	c := configuration.Default()
	goconfig.Read(&c)

	if c.Version {
		fmt.Println("Version:", bootstrap.VERSION)
		return
	}

	if c.ShowBanner {
		fmt.Println(banner)
	}

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "    ")
		e.Encode(c)
	}

	start, _ := bootstrap.Bootstrap(&c)
	start()
}
