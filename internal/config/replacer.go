package config

import "strings"

// envKeyReplacer maps config keys like data_paths.raw to env suffixes like
// DATA_PATHS_RAW.
var envKeyReplacer = strings.NewReplacer(".", "_")
