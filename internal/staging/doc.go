// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package staging validates and holds the single data file a question is
// asked about.
//
// A candidate is accepted when its declared media type is a CSV or ZIP type
// or its name ends in .csv or .zip (case-insensitive). Either condition is
// enough. A rejected candidate never disturbs the file already staged.
//
// # Usage
//
//	st := staging.New()
//	cand, err := staging.FromPath("sales.csv", 0)
//	if err != nil {
//	    return err
//	}
//	if _, err := st.Stage(cand); err != nil {
//	    // *staging.ValidationError
//	}
//	fmt.Println(st.Label())
package staging
