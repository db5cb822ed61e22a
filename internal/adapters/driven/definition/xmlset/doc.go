// Package xmlset reads and writes SetList markup documents.
//
// A document lists sets in precedence order:
//
//	<SetList version="4" serial_number="OS123" exclusive="true">
//	  <Set id="0" name="Default" kind="unassignedParticles"/>
//	  <Set id="1" name="Pico" kind="gateBased" colour="#00ff00">
//	    <Gate shape="rectangle" x_axis="FWS.total" y_axis="FL Red.total" log="true"
//	          min_x="0.5" max_x="2" min_y="1" max_y="3"/>
//	  </Set>
//	  <Set id="2" name="Both" kind="combined"><Member id="1"/></Set>
//	</SetList>
//
// Documents with a version below 4 predate this schema and are rejected.
package xmlset
