// Package catalog holds the registry of item definitions and loads it from
// declarative documents. A catalog tree keeps YAML or JSON documents under
// items/ and one pongo2 template per item under templates/. Documents may
// declare named option sets that fields reference with optionSet, so shared
// lists such as the Java type choices are written once. Default returns the
// bundled CMS items; Overlay layers a directory on top of them.
package catalog
