// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"os"
	"os/signal"
)

// terminationSignals are the signals that end a scan cycle cleanly and
// hand control back to the shell.
var terminationSignals = []os.Signal{os.Interrupt}

func notifyInterrupt(c chan os.Signal) {
	signal.Notify(c, terminationSignals...)
}

func stopInterruptNotify(c chan os.Signal) {
	signal.Stop(c)
}
