// Package xmlio implements the XML document shapes that feed and
// drain the scheduling, patching and optimizing engines: network and
// traffic input, scheduler parameters, patch/optimize bundles, and the
// schedule/patched-schedule/timing output documents. It is built
// directly on the standard library's encoding/xml.
package xmlio
