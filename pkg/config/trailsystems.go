package config

func defaultTrailSystems() TrailSystemsConfig {
	return TrailSystemsConfig{
		Promote: map[string]string{
			"park-lehigh-park":      "tsystem-lehigh",
			"park-gv-riverway-park": "tsystem-gv-riverway",
			"park-gv-greenway-park": "tsystem-gv-greenway",
			"park-ecanal-park-park": "tsystem-ecanal",
			"park-auburntr-park":    "tsystem-auburntr",
			"park-crescenttr":       "tsystem-crescenttr",
			"park-senecatr":         "tsystem-senecatr",
			"park-fowt-hojack":      "tsystem-fowt-hojack",
			"park-fowt-rt104":       "tsystem-fowt-rt104",
		},
		Reassign: map[string]string{
			"trail-lehigh-valley-main":           "tsystem-lehigh",
			"trail-lehigh-valley-north":          "tsystem-lehigh",
			"trail-lehigh-valley-unnamed-trails": "tsystem-lehigh",
			"trail-ecanal-main":                  "tsystem-ecanal",
			"trail-ecanal-closed":                "tsystem-ecanal",
			"trail-ecanal-detour":                "tsystem-ecanal",
			"trail-ecanal-access":                "tsystem-ecanal",
			"trail-ecanal-other":                 "tsystem-ecanal",
			"trail-ecanal-holley-falls":          "tsystem-ecanal",
			"trail-ecanal-rose-turner":           "tsystem-ecanal",
			"trail-gv-greenway":                  "tsystem-gv-greenway",
			"trail-gv-greenway-detour":           "tsystem-gv-greenway",
			"trail-gv-greenway-access":           "tsystem-gv-greenway",
			"trail-brookdale-preserve-trail":     "tsystem-gv-greenway",
			"trail-gv-riverway-south":            "tsystem-gv-riverway",
			"trail-gv-riverway-maplewood":        "tsystem-gv-riverway",
			"trail-gv-riverway-north":            "tsystem-gv-riverway",
			"trail-gv-riverway-east":             "tsystem-gv-riverway",
			"trail-gv-riverway-other":            "tsystem-gv-riverway",
			"trail-gv-riverway-access":           "tsystem-gv-riverway",
			"trail-auburntr-main":                "tsystem-auburntr",
			"trail-auburntr-shoulder":            "tsystem-auburntr",
			"trail-lvt-auburntr-ramp":            "tsystem-auburntr",
			"trail-vht-lehigh-blackdiamond":      "tsystem-auburntr",
			"trail-crescenttr-main":              "tsystem-crescenttr",
			"trail-crescenttr-blue":              "tsystem-crescenttr",
			"trail-crescenttr-green":             "tsystem-crescenttr",
			"trail-crescenttr-red":               "tsystem-crescenttr",
			"trail-crescenttr-white":             "tsystem-crescenttr",
			"trail-crescenttr-yellow":            "tsystem-crescenttr",
			"trail-senecatr-main":                "tsystem-senecatr",
			"trail-fowt-hojack-main":             "tsystem-fowt-hojack",
			"trail-fowt-rt104-path":              "tsystem-fowt-rt104",
		},
		Styled: []string{
			"trail-lehigh-valley-main",
			"trail-lehigh-valley-north",
			"trail-ecanal-main",
			"trail-gv-greenway",
			"trail-gv-greenway-detour",
			"trail-gv-riverway-south",
			"trail-gv-riverway-maplewood",
			"trail-gv-riverway-north",
			"trail-gv-riverway-east",
			"trail-auburntr-main",
			"trail-auburntr-shoulder",
			"trail-vht-lehigh-blackdiamond",
			"trail-crescenttr-main",
			"trail-senecatr-main",
			"trail-fowt-hojack-main",
			"trail-fowt-rt104-path",
		},
		Blazed: []string{
			"trail-crescenttr-main",
			"trail-crescenttr-blue",
			"trail-crescenttr-green",
			"trail-crescenttr-red",
			"trail-crescenttr-white",
			"trail-crescenttr-yellow",
			"trail-senecatr-main",
		},
	}
}
