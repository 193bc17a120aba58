package oop

import "github.com/tliron/commonlog"

var log = commonlog.GetLogger("easyoop.oop")
