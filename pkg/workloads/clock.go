// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package workloads

import "time"

// workloadNow is the package clock; tests swap it to pin timestamps.
var workloadNow = func() time.Time { return time.Now().UTC() }
