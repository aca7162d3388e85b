// Package domain models the NOAA Storm Events catalog and the rules that turn
// raw catalog rows into classified, normalized impact records.
//
// # Data Source
//
// The catalog is the NOAA National Climatic Data Center storm database,
// distributed as a single bzip2-compressed CSV (StormData.csv.bz2). Each row
// is one observed weather event. Only eight columns are used:
//
//	EVTYPE      free-text event type, e.g. "TSTM WIND", "HEAVY SNOW/ICE"
//	FATALITIES  deaths attributed to the event
//	INJURIES    injuries attributed to the event
//	PROPDMG     property damage base value
//	PROPDMGEXP  property damage exponent code
//	CROPDMG     crop damage base value
//	CROPDMGEXP  crop damage exponent code
//	BGN_DATE    begin date, "M/D/YYYY H:MM:SS"
//
// # Exponent Codes
//
// Damage is stored as a base value and an order-of-magnitude code:
//
//	"h"/"H" hundreds (10^2), "k"/"K" thousands (10^3),
//	"m"/"M" millions (10^6), "b"/"B" billions (10^9),
//	digits  the digit itself is the power of ten ("3" = 10^3).
//
// Anything else, including the empty string and stray symbols such as "?",
// "+" and "-", resolves to 10^0. Non-empty unknown codes are reported as
// [NormalizationWarning] values. Damage is normalized to millions of USD:
// base * 10^(exp-6). See [NormalizeDamage].
//
// # Event Groups
//
// EVTYPE holds nearly a thousand spellings of a few dozen phenomena. Events
// are folded into seven groups by ordered substring matching where a later
// matching group overwrites an earlier one:
//
//	rain/storms < tornado/hail < flood < winter < summer/heat < fog
//
// "others" is the default. "TSTM WIND/HAIL" ends up in tornado/hail, and
// "THUNDERSTORM WINDS/FLOODING" in flood. See [Classifier].
//
// # Impact
//
// Records with no fatalities, injuries, property base or crop base are
// dropped before normalization. The check uses raw base values so a record
// with base 5 and code "?" is still kept. See [HasImpact].
package domain
