// Package docio reads and writes mockup documents as JSON or YAML.
//
// # Format
//
// Both encodings share one envelope:
//
//	{
//	  "format": "mockup",
//	  "version": 1,
//	  "document": {
//	    "id": "…",
//	    "name": "Checkout",
//	    "activeId": "home",
//	    "grid": {"size": 8, "enabled": true},
//	    "screens": [
//	      {
//	        "id": "home",
//	        "name": "Home",
//	        "background": "#ffffff",
//	        "viewport": {"width": 390, "height": 844},
//	        "elements": [
//	          {"id": "g1", "type": "group", "x": 0, "y": 0, "width": 390, "height": 56, "z": 1},
//	          {"id": "t1", "type": "text", "parentId": "g1", "x": 120, "y": 16, "width": 150, "height": 24, "z": 2,
//	           "props": {"text": "Title"}}
//	        ]
//	      }
//	    ]
//	  }
//	}
//
// Elements are listed in paint order. Style and props are free-form objects
// and are preserved as-is.
//
// # Validation
//
// [Read] and [Import] validate the decoded document (unique ids, parents on
// the same screen, no parent cycles, dense z-order) and reject files that do
// not carry the mockup envelope. Writing never validates; the editor only
// produces valid documents.
package docio
