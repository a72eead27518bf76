package version

import (
	"fmt"
	"io"
)

type License struct {
	ModuleName  string
	LicenseName string
	Link        string
}

var Licenses = []License{
	{
		ModuleName:  "req",
		LicenseName: "MIT License",
		Link:        "https://github.com/HexmosTech/req/blob/main/LICENSE",
	},
	{
		ModuleName:  "Go",
		LicenseName: "BSD License",
		Link:        "https://golang.org/LICENSE",
	},
	{
		ModuleName:  "aurora",
		LicenseName: "WTFPL",
		Link:        "https://github.com/logrusorgru/aurora/blob/master/LICENSE",
	},
	{
		ModuleName:  "color",
		LicenseName: "MIT License",
		Link:        "https://github.com/fatih/color/blob/main/LICENSE.md",
	},
	{
		ModuleName:  "go-isatty",
		LicenseName: "MIT License",
		Link:        "https://github.com/mattn/go-isatty/blob/master/LICENSE",
	},
	{
		ModuleName:  "getopt",
		LicenseName: "BSD License",
		Link:        "https://github.com/pborman/getopt/blob/master/LICENSE",
	},
	{
		ModuleName:  "errors",
		LicenseName: "BSD License",
		Link:        "https://github.com/pkg/errors/blob/master/LICENSE",
	},
	{
		ModuleName:  "bytefmt",
		LicenseName: "Apache License",
		Link:        "https://github.com/cloudfoundry/bytefmt/blob/master/LICENSE",
	},
	{
		ModuleName:  "clock",
		LicenseName: "MIT License",
		Link:        "https://github.com/benbjohnson/clock/blob/master/LICENSE",
	},
	{
		ModuleName:  "gjson",
		LicenseName: "MIT License",
		Link:        "https://github.com/tidwall/gjson/blob/master/LICENSE",
	},
	{
		ModuleName:  "pretty",
		LicenseName: "MIT License",
		Link:        "https://github.com/tidwall/pretty/blob/master/LICENSE",
	},
	{
		ModuleName:  "yaml",
		LicenseName: "Apache License / MIT License",
		Link:        "https://github.com/go-yaml/yaml/blob/v3/LICENSE",
	},
	{
		ModuleName:  "androiddnsfix",
		LicenseName: "MIT License",
		Link:        "https://github.com/mtibben/androiddnsfix/blob/master/LICENSE",
	},
}

func PrintLicenses(w io.Writer) {
	for _, license := range Licenses {
		fmt.Fprintf(w, "%s:\n  %s\n  %s\n\n",
			license.ModuleName,
			license.LicenseName,
			license.Link,
		)
	}
}
