package shopify

// ProductByIDQuery fetches one product with everything the edit console shows.
// Collections carry their smart rule sets so tag-derived collection titles can
// be computed client-side.
const ProductByIDQuery = `
query getProduct($id: ID!) {
  product(id: $id) {
    id
    title
    handle
    status
    vendor
    productType
    tags
    descriptionHtml
    createdAt
    updatedAt
    featuredImage {
      url
      altText
      width
      height
    }
    images(first: 20) {
      edges {
        node {
          url
          altText
          width
          height
        }
      }
    }
    variants(first: 50) {
      edges {
        node {
          id
          title
          sku
          barcode
          price
          inventoryQuantity
          inventoryItem {
            tracked
          }
        }
      }
    }
    metafields(first: 100) {
      edges {
        node {
          id
          namespace
          key
          type
          value
        }
      }
    }
    collections(first: 50) {
      edges {
        node {
          id
          title
          ruleSet {
            rules {
              column
              relation
              condition
            }
          }
        }
      }
    }
  }
}
`

// ShopQuery is a cheap connectivity check returning the shop name
const ShopQuery = `
query getShop {
  shop {
    name
    myshopifyDomain
  }
}
`

// SmartCollectionsQuery pages through collections with their rule sets
const SmartCollectionsQuery = `
query getCollections($first: Int!, $after: String, $query: String) {
  collections(first: $first, after: $after, query: $query) {
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {
        id
        title
        handle
        ruleSet {
          rules {
            column
            relation
            condition
          }
        }
      }
    }
  }
}
`
