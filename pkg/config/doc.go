/*
Package config holds the option lists offered when classifying an exam file
and the settings of the background runner.

	            +-------------+
	            |   Config    |
	            |  (Options)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   HCL    | |   JSON   |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Supply specializations, exam parts, file types and periods
- Define the window of selectable years around the current one
- Choose how progress is reported (steps or ramp)

🔄 Flow:
1. Start from Default()
2. Overlay whatever the file sets
3. Validate and fill missing scalars

⚡ Notes:
- Unknown keys are rejected by every parser
- An empty file yields the defaults
- Option lists only guide the user; a relocation accepts any value and
  Unlisted reports the ones outside the lists

🔍 Example:

	years {
	  past   = current_year - 2020
	  future = 1
	}

	progress {
	  mode     = "ramp"
	  interval = "20ms"
	}
*/
package config
