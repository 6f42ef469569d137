package brokers

import "github.com/etnz/statement"

// All returns a registry holding every template shipped with this package.
func All() *statement.Templates {
	return statement.NewTemplates(
		Swissquote(),
		Comdirect(),
	)
}
