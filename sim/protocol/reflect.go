// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package protocol

import "reflect"

func newOfType(t reflect.Type) interface{} {
	return reflect.New(t).Interface()
}

func derefInbound(ptr interface{}) (Inbound, bool) {
	v := reflect.ValueOf(ptr).Elem().Interface()
	in, ok := v.(Inbound)
	return in, ok
}
