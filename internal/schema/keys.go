package schema

// KeysTranslate maps normalized German export headers to canonical field
// names. Headers absent from this table pass through unchanged.
var KeysTranslate = map[string]string{
	"fach_schl":   "name",
	"kma_schl":    "key",
	"ktx":         "label",
	"txt":         "description",
	"inhalt":      "title",
	"dst":         "data_type",
	"me_name":     "unit",
	"nkm_stellen": "float_precision",
	"achsen_sort": "axis_order",
	"bzl_sort":    "label_order",
	"gueltig_von": "valid_from",
	"gueltig_bis": "valid_until",
	"geheim":      "secret_values",
	"summierbar":  "summable",
	"zeitlos":     "atemporal",
	"meta_var":    "meta_variable",
	"spr_ghm":     "trans_flag_1",
	"spr_bzl":     "trans_flag_2",
}

// KeysIgnore lists fields that are decoded but never stored in records.
// The translation flags steer localization filtering before being dropped.
var KeysIgnore = map[string]bool{
	"trans_flag_1": true,
	"trans_flag_2": true,
	"spr_tmp":      true,
}

// KeysLocalized lists language-dependent text fields. They are stripped from
// any record whose translation flag decodes to false, since untranslated
// texts would mix languages within one dataset.
var KeysLocalized = map[string]bool{
	"label":       true,
	"description": true,
	"title":       true,
	"unit":        true,
}
