package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fulldump/goconfig"

	"github.com/fulldump/docrest/bootstrap"
	"github.com/fulldump/docrest/configuration"
)

var banner = `
     _                          _   
  __| | ___   ___ _ __ ___  ___| |_ 
 / _` + "`" + ` |/ _ \ / __| '__/ _ \/ __| __|
| (_| | (_) | (__| | |  __/\__ \ |_ 
 \__,_|\___/ \___|_|  \___||___/\__|
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

	start, _, err := bootstrap.Bootstrap(&c)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err.Error())
		os.Exit(1)
	}

	start()
}
