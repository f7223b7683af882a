// Copyright (c) 2021-2025 CascadeDB Inc. All rights reserved.

package gocascade

// CascadeGoClientVersion is the version of the CascadeDB Go client core
const CascadeGoClientVersion = "0.9.2"
