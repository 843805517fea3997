// Package logging provides leveled logging for the encoder. The level is
// read once from the LOG_LEVEL environment variable (debug, info, warn,
// error), with DEBUG=true as a shortcut for debug level. The default is
// info.
package logging
